package models

import "strings"

// Classification is the four-part business classification attached to an
// account by the rule table.
type Classification struct {
	Tipo          string `json:"tipo" yaml:"tipo"`
	Categoria1    string `json:"categoria_1" yaml:"categoria_1"`
	SubCategoria  string `json:"sub_categoria" yaml:"sub_categoria"`
	Clasificacion string `json:"clasificacion" yaml:"clasificacion"`
}

// IsDefaultValue reports whether a classification field is unassigned.
func IsDefaultValue(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, DefaultClassificationValue)
}

// IsComplete reports whether both tipo and categoria_1 carry real values.
// Only complete classifications count toward classified totals.
func (c Classification) IsComplete() bool {
	return !IsDefaultValue(c.Tipo) && !IsDefaultValue(c.Categoria1)
}

// IsEmpty reports whether no field carries a real value.
func (c Classification) IsEmpty() bool {
	return IsDefaultValue(c.Tipo) && IsDefaultValue(c.Categoria1) &&
		IsDefaultValue(c.SubCategoria) && IsDefaultValue(c.Clasificacion)
}

// Pattern is the (tipo, categoria_1, sub_categoria) triple used to decide
// whether a group of siblings shares a template.
func (c Classification) Pattern() string {
	return c.Tipo + "|" + c.Categoria1 + "|" + c.SubCategoria
}

// ClassificationStatus is the derived state of an account.
type ClassificationStatus string

const (
	StatusUnclassified         ClassificationStatus = "UNCLASSIFIED"
	StatusClassified           ClassificationStatus = "CLASSIFIED"
	StatusImplicitlyClassified ClassificationStatus = "IMPLICITLY_CLASSIFIED"
)

// StatusOf maps an optional classification to its explicit status.
// IMPLICITLY_CLASSIFIED is never returned here; it needs hierarchy context.
func StatusOf(c Classification, found bool) ClassificationStatus {
	if found && c.IsComplete() {
		return StatusClassified
	}
	return StatusUnclassified
}

// ClassificationDelta is a proposed rule change handed back to the rule
// manager once a user approves it.
type ClassificationDelta struct {
	Code              string         `json:"code" yaml:"code"`
	NewClassification Classification `json:"new_classification" yaml:"new_classification"`
	Reason            string         `json:"reason" yaml:"reason"`
}
