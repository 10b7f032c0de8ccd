package report

import (
	apperrors "troskovi/internal/errors"
)

// Renderer turns a Document into the bytes of one format.
type Renderer interface {
	Format() Format
	Render(doc *Document) ([]byte, error)
}

// File is a rendered export ready to be served or stored.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Option tunes renderer behavior.
type Option func(*options)

type options struct {
	compress bool
}

// WithoutCompression leaves PDF content streams uncompressed so their text
// can be inspected.
func WithoutCompression() Option {
	return func(o *options) { o.compress = false }
}

// NewRenderer returns the renderer for f.
func NewRenderer(f Format, opts ...Option) (Renderer, error) {
	o := options{compress: true}
	for _, opt := range opts {
		opt(&o)
	}

	switch f {
	case FormatPDF:
		return &pdfRenderer{opts: o}, nil
	case FormatDOCX:
		return &docxRenderer{}, nil
	case FormatXLSX:
		return &xlsxRenderer{}, nil
	}
	return nil, apperrors.WithMessage(apperrors.ErrUnsupportedFormat, "unsupported export format: "+string(f))
}

// Render renders doc as f and names the file after the person and month.
func Render(f Format, doc *Document, opts ...Option) (*File, error) {
	r, err := NewRenderer(f, opts...)
	if err != nil {
		return nil, err
	}
	data, err := r.Render(doc)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRenderFailed, err)
	}
	return &File{
		Name:        FileName(doc.FirstName, doc.LastName, doc.Month, f),
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}
