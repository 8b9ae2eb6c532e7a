package endpoints

import (
	"github.com/jackzampolin/docket/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health
		&HealthEndpoint{},

		// Session endpoints
		&CreateSessionEndpoint{},
		&DeleteSessionEndpoint{},
		&SessionPDFEndpoint{},

		// Section endpoints
		&ListSectionsEndpoint{},
		&AddSectionEndpoint{},
		&GetSectionEndpoint{},
		&RemoveSectionEndpoint{},
		&SwapSectionEndpoint{},
		&SeedSessionEndpoint{},

		// Predefined link endpoints
		&ListPredefinedEndpoint{},
		&SetPredefinedEndpoint{},
		&DeletePredefinedEndpoint{},
		&PredefinedSheetEndpoint{},

		// Documents and images
		&RoadmapPDFEndpoint{},
		&QREndpoint{},

		// Static files (catch-all, must be last)
		&StaticEndpoint{},
	}
}

// SessionCommands returns endpoints grouped under "sessions".
func SessionCommands() []api.Endpoint {
	return []api.Endpoint{
		&CreateSessionEndpoint{},
		&DeleteSessionEndpoint{},
		&SessionPDFEndpoint{},
		&SeedSessionEndpoint{},
	}
}

// SectionCommands returns endpoints grouped under "sections".
func SectionCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListSectionsEndpoint{},
		&AddSectionEndpoint{},
		&GetSectionEndpoint{},
		&RemoveSectionEndpoint{},
		&SwapSectionEndpoint{},
	}
}

// PredefinedCommands returns endpoints grouped under "predefined".
func PredefinedCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListPredefinedEndpoint{},
		&SetPredefinedEndpoint{},
		&DeletePredefinedEndpoint{},
		&PredefinedSheetEndpoint{},
	}
}
