package render

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/s-oshima-kops/automakedoc/internal/models"
	"github.com/s-oshima-kops/automakedoc/internal/template"
)

// RenderedDocument is one serialized output blob with its suggested filename.
type RenderedDocument struct {
	Format   Format
	Filename string
	Data     []byte
}

// Render resolves the schema once and serializes it to the requested format.
func (r *Renderer) Render(schema *template.Schema, req Request, format Format) (*RenderedDocument, error) {
	doc, err := r.Resolve(schema, req)
	if err != nil {
		return nil, err
	}
	data, err := Serialize(doc, format)
	if err != nil {
		return nil, err
	}
	return &RenderedDocument{
		Format:   format,
		Filename: Filename(schema, req, format),
		Data:     data,
	}, nil
}

// RenderAll resolves the schema once and serializes it to every requested
// format concurrently. All outputs share the single resolved document.
func (r *Renderer) RenderAll(schema *template.Schema, req Request, formats []Format) ([]RenderedDocument, error) {
	doc, err := r.Resolve(schema, req)
	if err != nil {
		return nil, err
	}

	out := make([]RenderedDocument, len(formats))
	var g errgroup.Group
	for i, format := range formats {
		i, format := i, format
		g.Go(func() error {
			data, err := Serialize(doc, format)
			if err != nil {
				return err
			}
			out[i] = RenderedDocument{
				Format:   format,
				Filename: Filename(schema, req, format),
				Data:     data,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Serialize encodes a resolved document in the given format.
func Serialize(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return serializeText(doc)
	case FormatCSV:
		return serializeCSV(doc)
	case FormatXLSX:
		return serializeXLSX(doc)
	case FormatDocx:
		return serializeDocx(doc)
	}
	return nil, fmt.Errorf("render: unsupported format %q", format)
}

// Filename suggests {name}_{start}_{end}.{ext} for a rendered document.
func Filename(schema *template.Schema, req Request, format Format) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', '\t':
			return '_'
		}
		return r
	}, schema.Name)
	return fmt.Sprintf("%s_%s_%s.%s",
		name,
		req.Start.Format(models.DateKeyLayout),
		req.End.Format(models.DateKeyLayout),
		format.Extension())
}
