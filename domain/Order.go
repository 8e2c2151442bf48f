package domain

import (
	"fieldops/domain/status"
	"time"
)

// Order mirrors the upstream `ordenes/` resource. Field tags follow the wire
// names of the API exactly; json decoding is the only place they appear.
type Order struct {
	ID             int64      `json:"id"`
	Titulo         string     `json:"titulo"`
	Descripcion    string     `json:"descripcion"`
	Direccion      string     `json:"direccion"`
	Latitud        *float64   `json:"latitud"`
	Longitud       *float64   `json:"longitud"`
	FotoReferencia string     `json:"foto_referencia"`
	FechaInicio    *time.Time `json:"fecha_inicio"`
	FechaFin       *time.Time `json:"fecha_fin"`
	CreadoEn       time.Time  `json:"creado_en"`

	Cliente    int64  `json:"cliente"`
	Tecnico    *int64 `json:"tecnico"`
	Supervisor *int64 `json:"supervisor"`

	ClienteNombre    string `json:"cliente_nombre"`
	TecnicoNombre    string `json:"tecnico_nombre"`
	SupervisorNombre string `json:"supervisor_nombre"`

	EstadoID   *int64         `json:"estado"`
	EstadoData *status.Estado `json:"estado_data"`
}

// StatusKind maps the order's status relation into the closed variant.
// An order without a status relation is "sin estado".
func (o *Order) StatusKind() status.Kind {
	if o.EstadoData == nil {
		return status.Unknown
	}
	return status.KindOfName(o.EstadoData.Nombre)
}

func (o *Order) StatusName() string {
	if o.EstadoData == nil {
		return "Sin estado"
	}
	return o.EstadoData.Nombre
}

func (o *Order) StatusColor() string {
	if o.EstadoData == nil || o.EstadoData.Color == "" {
		return status.UnknownColor
	}
	return o.EstadoData.Color
}
