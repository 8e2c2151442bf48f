package status

// Kind is the closed variant the console works with internally. The upstream
// catalog is keyed by name; names are mapped into a Kind once, at the fetch
// boundary, so nothing downstream compares raw strings.
type Kind int

const (
	Unknown Kind = iota
	Pendiente
	EnProgreso
	EnRevision
	Finalizado
)

// UnknownColor renders orders whose status relation is missing or unmapped.
const UnknownColor = "#808080"

var kindNames = map[Kind]string{
	Pendiente:  "Pendiente",
	EnProgreso: "En Progreso",
	EnRevision: "En Revisión",
	Finalizado: "Finalizado",
}

func (k Kind) Name() string {
	name, ok := kindNames[k]
	if !ok {
		return "Sin estado"
	}
	return name
}

// KindOfName matches the canonical catalog names exactly, case-sensitively.
// Anything else, including a renamed or typo'd catalog entry, maps to Unknown.
func KindOfName(name string) Kind {
	for kind, kindName := range kindNames {
		if kindName == name {
			return kind
		}
	}
	return Unknown
}

// Estado is the wire shape of one entry of the upstream `estados/` catalog.
type Estado struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Color  string `json:"color"`
	Orden  int    `json:"orden"`
}

type Status struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Kind  Kind   `json:"kind"`
}

// Catalog holds the fetched statuses mapped into the closed variant.
type Catalog struct {
	statuses []Status
}

func NewCatalog(estados []Estado) Catalog {
	statuses := make([]Status, 0, len(estados))
	for _, e := range estados {
		statuses = append(statuses, Status{ID: e.ID, Name: e.Nombre, Color: e.Color, Kind: KindOfName(e.Nombre)})
	}
	return Catalog{statuses: statuses}
}

// Find resolves a Kind against the fetched catalog. The false return is the
// signal for callers to abort whatever transition they were about to issue.
func (c Catalog) Find(kind Kind) (Status, bool) {
	if kind == Unknown {
		return Status{}, false
	}
	for _, s := range c.statuses {
		if s.Kind == kind {
			return s, true
		}
	}
	return Status{}, false
}

func (c Catalog) All() []Status {
	return c.statuses
}
