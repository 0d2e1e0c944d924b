package domain

import (
	sharedDomain "github.com/davicafu/newslab/internal/shared/domain"
)

// Filter describe el predicado compuesto de un listado. Un slice nil (o
// vacío) significa campo ausente: sin restricción. El servicio nunca lo
// evalúa localmente; se entrega tal cual al HeadlineDataSource.
type Filter struct {
	Categories     []CategoryRef
	Sources        []SourceRef
	EventCountries []CountryRef
}

// IsEmpty indica si ningún campo impone restricción.
func (f Filter) IsEmpty() bool {
	return len(f.Categories) == 0 && len(f.Sources) == 0 && len(f.EventCountries) == 0
}

// ToConditions traduce el filtro al sistema neutral de criterios: cada campo
// presente se convierte en un IN (OR dentro del campo) y las condiciones
// resultantes se combinan con AND en el adapter.
func (f Filter) ToConditions() []sharedDomain.Criterion {
	var conds []sharedDomain.Criterion
	if len(f.Categories) > 0 {
		conds = append(conds, sharedDomain.Criterion{Field: "categories", Op: sharedDomain.OpIn, Value: f.Categories})
	}
	if len(f.Sources) > 0 {
		conds = append(conds, sharedDomain.Criterion{Field: "source", Op: sharedDomain.OpIn, Value: f.Sources})
	}
	if len(f.EventCountries) > 0 {
		conds = append(conds, sharedDomain.Criterion{Field: "event_countries", Op: sharedDomain.OpIn, Value: f.EventCountries})
	}
	return conds
}

// Verificación estática para asegurar que Filter implementa la interfaz
var _ sharedDomain.Criteria = Filter{}
