package uploader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/reclutador/staffing-api/internal/model"
	"github.com/reclutador/staffing-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUploader(store storage.Storage) *Uploader {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, store, "staffing")
}

func TestUploadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("orders by category then file order", func(t *testing.T) {
		mem := storage.NewMemory()
		up := newTestUploader(mem)

		files := map[string][]File{
			model.CategoryCV: {
				{Name: "cv.pdf", Data: []byte("cv")},
			},
			model.CategoryCertificados: {
				{Name: "first.pdf", Data: []byte("one")},
				{Name: "second.pdf", Data: []byte("two")},
			},
		}

		atts, err := up.UploadAll(ctx, "12345678", model.Categories(), files)
		require.NoError(t, err)
		require.Len(t, atts, 3)

		assert.Equal(t, model.CategoryCertificados, atts[0].Category)
		assert.Equal(t, "staffing/12345678/certificados/first", atts[0].Path)
		assert.Equal(t, model.CategoryCertificados, atts[1].Category)
		assert.Equal(t, "staffing/12345678/certificados/second", atts[1].Path)
		assert.Equal(t, model.CategoryCV, atts[2].Category)

		for _, att := range atts {
			assert.Equal(t, "memory://"+att.Path, att.URL)
			_, ok := mem.Object(att.Path)
			assert.True(t, ok)
		}
	})

	t.Run("repeated filenames keep distinct objects", func(t *testing.T) {
		mem := storage.NewMemory()
		up := newTestUploader(mem)

		files := map[string][]File{
			model.CategoryCertificados: {
				{Name: "cv.pdf", Data: []byte("first")},
				{Name: "cv.pdf", Data: []byte("second")},
			},
		}

		atts, err := up.UploadAll(ctx, "12345678", model.Categories(), files)
		require.NoError(t, err)
		require.Len(t, atts, 2)

		assert.Equal(t, "staffing/12345678/certificados/cv", atts[0].Path)
		assert.Equal(t, "staffing/12345678/certificados/cv-2", atts[1].Path)
		assert.NotEqual(t, atts[0].URL, atts[1].URL)

		data, ok := mem.Object(atts[0].Path)
		require.True(t, ok)
		assert.Equal(t, []byte("first"), data)

		data, ok = mem.Object(atts[1].Path)
		require.True(t, ok)
		assert.Equal(t, []byte("second"), data)
	})

	t.Run("single failure aborts and reports stored files", func(t *testing.T) {
		mem := storage.NewMemory()
		mem.FailOn = "medico"
		up := newTestUploader(mem)

		files := map[string][]File{
			model.CategoryCertificados: {{Name: "cert.pdf", Data: []byte("ok")}},
			model.CategoryMedico:       {{Name: "exam.pdf", Data: []byte("nope")}},
		}

		stored, err := up.UploadAll(ctx, "12345678", model.Categories(), files)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrUpload))
		require.Len(t, stored, 1)
		assert.Equal(t, model.CategoryCertificados, stored[0].Category)
	})

	t.Run("sweep removes stored objects", func(t *testing.T) {
		mem := storage.NewMemory()
		up := newTestUploader(mem)

		files := map[string][]File{
			model.CategoryCV: {{Name: "cv.pdf", Data: []byte("cv")}},
		}

		stored, err := up.UploadAll(ctx, "12345678", model.Categories(), files)
		require.NoError(t, err)
		require.Len(t, mem.Paths(), 1)

		up.Sweep(ctx, stored)
		assert.Empty(t, mem.Paths())
	})
}

func TestObjectName(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "extension stripped", in: "resume.pdf", want: "resume"},
		{name: "directory stripped", in: "../../etc/passwd", want: "passwd"},
		{name: "unsafe runes replaced", in: "mi currículum (final).docx", want: "mi_curr_culum__final"},
		{name: "length capped", in: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa.pdf", want: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ObjectName(tc.in))
		})
	}

	t.Run("empty falls back to random", func(t *testing.T) {
		assert.NotEmpty(t, ObjectName("..."))
	})
}
