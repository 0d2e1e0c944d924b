package domain

// Topic por defecto de los eventos de titulares.
const HeadlineTopic = "headline-events"

// Tipos de evento de integración.
const (
	PageUpdated = "headline.page.updated"
)
