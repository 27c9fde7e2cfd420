package spec

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
)

// Preflight runs a full structural validation of the document through
// kin-openapi before the generation pipeline touches it. It is optional
// (strict mode); the pipeline's own checks cover the sections it consumes,
// while Preflight catches problems in parts of the document the pipeline
// never reads.
func Preflight(ctx context.Context, data []byte) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return Wrap(err, ErrMalformedDocument, "preflight parse failed")
	}
	if err := doc.Validate(ctx); err != nil {
		return Wrap(err, ErrMalformedDocument, "preflight validation failed")
	}
	return nil
}
