package orderform

import (
	"context"
	"fieldops/apiclient"
	"fieldops/bizerror"
	"fieldops/common"
	"fieldops/domain"
	"fieldops/domain/status"
	"fieldops/session"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// OrderCreation is the new-order form. Coordinates travel together: either
// both are present or the order carries no location at all.
type OrderCreation struct {
	Titulo      string `validate:"required"`
	Descripcion string
	Direccion   string
	Cliente     int64 `validate:"required,gt=0"`
	Tecnico     int64 `validate:"required,gt=0"`
	// Supervisor is chosen explicitly by administrators; when zero the
	// upstream assigns the authoring supervisor.
	Supervisor  int64 `validate:"omitempty,gt=0"`
	FechaInicio time.Time
	Latitud     *float64 `validate:"omitempty,gte=-90,lte=90"`
	Longitud    *float64 `validate:"omitempty,gte=-180,lte=180"`

	Photo *Photo
}

type Photo struct {
	Name    string
	Content io.Reader
}

var (
	CreateOrderFunc = func(ctx context.Context, form *apiclient.Form) (*domain.Order, error) {
		return apiclient.ActiveClient.CreateOrder(ctx, form)
	}
	FetchStatusCatalogFunc = func(ctx context.Context) (status.Catalog, error) {
		return apiclient.ActiveClient.FetchStatusCatalog(ctx)
	}
)

// Create validates the form, resolves the initial "Pendiente" status from the
// live catalog and submits the multipart payload. A catalog without a
// Pendiente entry aborts the creation.
func Create(ctx context.Context, secCtx *session.Session, creation OrderCreation) (*domain.Order, error) {
	if err := validator.New().Struct(creation); err != nil {
		return nil, &common.ErrBadParam{Cause: err}
	}
	if (creation.Latitud == nil) != (creation.Longitud == nil) {
		return nil, &common.ErrBadParam{Cause: fmt.Errorf("latitud y longitud deben enviarse juntas")}
	}
	if creation.FechaInicio.IsZero() {
		return nil, &common.ErrBadParam{Cause: fmt.Errorf("fecha_inicio es obligatoria")}
	}

	ctx = apiclient.ContextWithToken(ctx, secCtx.AccessToken)
	catalog, err := FetchStatusCatalogFunc(ctx)
	if err != nil {
		return nil, err
	}
	pendiente, found := catalog.Find(status.Pendiente)
	if !found {
		return nil, bizerror.ErrUnknownStatus
	}

	form := &apiclient.Form{
		Fields: map[string]string{
			"titulo":       creation.Titulo,
			"cliente":      strconv.FormatInt(creation.Cliente, 10),
			"tecnico":      strconv.FormatInt(creation.Tecnico, 10),
			"fecha_inicio": creation.FechaInicio.UTC().Format(time.RFC3339),
			"estado":       strconv.FormatInt(pendiente.ID, 10),
		},
	}
	if creation.Descripcion != "" {
		form.Fields["descripcion"] = creation.Descripcion
	}
	if creation.Direccion != "" {
		form.Fields["direccion"] = creation.Direccion
	}
	if creation.Supervisor != 0 {
		form.Fields["supervisor"] = strconv.FormatInt(creation.Supervisor, 10)
	}
	if creation.Latitud != nil && creation.Longitud != nil {
		form.Fields["latitud"] = strconv.FormatFloat(*creation.Latitud, 'f', -1, 64)
		form.Fields["longitud"] = strconv.FormatFloat(*creation.Longitud, 'f', -1, 64)
	}
	if creation.Photo != nil {
		form.Files = append(form.Files, apiclient.FormFile{Field: "foto_referencia", Name: creation.Photo.Name, Content: creation.Photo.Content})
	}

	return CreateOrderFunc(ctx, form)
}

// TimeSlots is the scheduling grid: half-hour steps over the working day.
func TimeSlots() []string {
	slots := []string{}
	for hour := 8; hour < 18; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour), fmt.Sprintf("%02d:30", hour))
	}
	return append(slots, "18:00")
}

// ParseSchedule combines the date field and a grid slot into the order's
// start timestamp, interpreted in the given zone. Times off the grid are
// rejected.
func ParseSchedule(date, slot string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	onGrid := false
	for _, s := range TimeSlots() {
		if s == slot {
			onGrid = true
			break
		}
	}
	if !onGrid {
		return time.Time{}, &common.ErrBadParam{Cause: fmt.Errorf("hora %q fuera de la grilla", slot)}
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+slot, loc)
	if err != nil {
		return time.Time{}, &common.ErrBadParam{Cause: err}
	}
	return start, nil
}
