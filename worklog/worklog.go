package worklog

import (
	"context"
	"fieldops/apiclient"
	"fieldops/bizerror"
	"fieldops/domain"
	"fieldops/session"
	"io"
	"strconv"
	"strings"
)

// EntryDraft is the bitácora form as submitted: free text plus any number of
// photo attachments. An entry must carry at least one of the two.
type EntryDraft struct {
	Orden     int64
	Contenido string
	Photos    []Photo
}

type Photo struct {
	Name    string
	Content io.Reader
}

var AppendWorkLogFunc = func(ctx context.Context, secCtx *session.Session, form *apiclient.Form) (*domain.Avance, error) {
	return apiclient.ActiveClient.AppendWorkLog(apiclient.ContextWithToken(ctx, secCtx.AccessToken), form)
}

// Append validates the draft and posts it. Validation failures are rejected
// before any network call is made.
func Append(ctx context.Context, secCtx *session.Session, draft EntryDraft) (*domain.Avance, error) {
	contenido := strings.TrimSpace(draft.Contenido)
	if contenido == "" && len(draft.Photos) == 0 {
		return nil, bizerror.ErrEmptyLogEntry
	}

	form := &apiclient.Form{
		Fields: map[string]string{
			"orden":     strconv.FormatInt(draft.Orden, 10),
			"contenido": contenido,
		},
	}
	for _, photo := range draft.Photos {
		form.Files = append(form.Files, apiclient.FormFile{Field: "imagenes", Name: photo.Name, Content: photo.Content})
	}
	return AppendWorkLogFunc(ctx, secCtx, form)
}

// Gallery flattens the order's reference photo and every entry photo into the
// lightbox slide list, reference photo first, then entries in feed order.
func Gallery(order *domain.Order, entries []domain.Avance) []string {
	photos := []string{}
	if order != nil && order.FotoReferencia != "" {
		photos = append(photos, order.FotoReferencia)
	}
	for i := range entries {
		photos = append(photos, entries[i].Photos()...)
	}
	return photos
}

// Cursor walks the gallery one slide at a time. Both ends are hard stops;
// stepping past them keeps the position.
type Cursor struct {
	photos []string
	pos    int
}

func NewCursor(photos []string) *Cursor {
	return &Cursor{photos: photos}
}

func (c *Cursor) Len() int { return len(c.photos) }

func (c *Cursor) Position() int { return c.pos }

// Current returns the photo under the cursor, or "" for an empty gallery.
func (c *Cursor) Current() string {
	if len(c.photos) == 0 {
		return ""
	}
	return c.photos[c.pos]
}

func (c *Cursor) Next() string {
	if c.pos < len(c.photos)-1 {
		c.pos++
	}
	return c.Current()
}

func (c *Cursor) Prev() string {
	if c.pos > 0 {
		c.pos--
	}
	return c.Current()
}
