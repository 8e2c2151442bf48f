package worklog_test

import (
	"context"
	"errors"
	"fieldops/apiclient"
	"fieldops/bizerror"
	"fieldops/domain"
	"fieldops/session"
	"fieldops/worklog"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

func TestAppend(t *testing.T) {
	RegisterTestingT(t)

	secCtx := &session.Session{AccessToken: "at"}

	origin := worklog.AppendWorkLogFunc
	defer func() { worklog.AppendWorkLogFunc = origin }()

	t.Run("an entry with neither text nor photos is rejected before any call", func(t *testing.T) {
		called := false
		worklog.AppendWorkLogFunc = func(ctx context.Context, secCtx *session.Session, form *apiclient.Form) (*domain.Avance, error) {
			called = true
			return nil, nil
		}

		_, err := worklog.Append(context.Background(), secCtx, worklog.EntryDraft{Orden: 3, Contenido: "   "})
		Expect(errors.Is(err, bizerror.ErrEmptyLogEntry)).To(BeTrue())
		Expect(called).To(BeFalse())
	})

	t.Run("text only entries build the expected form", func(t *testing.T) {
		var got *apiclient.Form
		worklog.AppendWorkLogFunc = func(ctx context.Context, secCtx *session.Session, form *apiclient.Form) (*domain.Avance, error) {
			got = form
			return &domain.Avance{ID: 11, Orden: 3, Contenido: "avance"}, nil
		}

		entry, err := worklog.Append(context.Background(), secCtx, worklog.EntryDraft{Orden: 3, Contenido: "  avance  "})
		Expect(err).To(BeNil())
		Expect(entry.ID).To(Equal(int64(11)))
		Expect(got.Fields).To(Equal(map[string]string{"orden": "3", "contenido": "avance"}))
		Expect(got.Files).To(BeEmpty())
	})

	t.Run("photo only entries are valid", func(t *testing.T) {
		var got *apiclient.Form
		worklog.AppendWorkLogFunc = func(ctx context.Context, secCtx *session.Session, form *apiclient.Form) (*domain.Avance, error) {
			got = form
			return &domain.Avance{ID: 12}, nil
		}

		_, err := worklog.Append(context.Background(), secCtx, worklog.EntryDraft{
			Orden:  3,
			Photos: []worklog.Photo{{Name: "antes.jpg", Content: strings.NewReader("x")}},
		})
		Expect(err).To(BeNil())
		Expect(got.Fields["contenido"]).To(Equal(""))
		Expect(got.Files).To(HaveLen(1))
		Expect(got.Files[0].Field).To(Equal("imagenes"))
		Expect(got.Files[0].Name).To(Equal("antes.jpg"))
	})
}

func TestGallery(t *testing.T) {
	RegisterTestingT(t)

	order := &domain.Order{ID: 1, FotoReferencia: "/media/ref.jpg"}
	entries := []domain.Avance{
		{ID: 1, Foto: "/media/legacy.jpg"},
		{ID: 2, Imagenes: []domain.FotoAvance{{ID: 1, Foto: "/media/a.jpg"}, {ID: 2, Foto: "/media/b.jpg"}}},
		{ID: 3, Contenido: "sin fotos"},
	}

	Expect(worklog.Gallery(order, entries)).To(Equal([]string{
		"/media/ref.jpg", "/media/legacy.jpg", "/media/a.jpg", "/media/b.jpg",
	}))

	t.Run("missing reference photo is skipped", func(t *testing.T) {
		Expect(worklog.Gallery(&domain.Order{}, entries)).To(HaveLen(3))
	})
}

func TestCursor(t *testing.T) {
	RegisterTestingT(t)

	t.Run("stops at both ends without wrapping", func(t *testing.T) {
		cursor := worklog.NewCursor([]string{"a", "b", "c"})
		Expect(cursor.Current()).To(Equal("a"))
		Expect(cursor.Prev()).To(Equal("a"))
		Expect(cursor.Next()).To(Equal("b"))
		Expect(cursor.Next()).To(Equal("c"))
		Expect(cursor.Next()).To(Equal("c"))
		Expect(cursor.Position()).To(Equal(2))
		Expect(cursor.Prev()).To(Equal("b"))
	})

	t.Run("empty gallery yields no photo", func(t *testing.T) {
		cursor := worklog.NewCursor(nil)
		Expect(cursor.Len()).To(BeZero())
		Expect(cursor.Current()).To(Equal(""))
		Expect(cursor.Next()).To(Equal(""))
	})
}
