package accessgate

import (
	"log/slog"

	httpadapter "dealerportal/contexts/identity-access/access-gate/adapters/http"
	"dealerportal/contexts/identity-access/access-gate/adapters/memory"
	"dealerportal/contexts/identity-access/access-gate/application/commands"
	"dealerportal/contexts/identity-access/access-gate/application/queries"
	"dealerportal/contexts/identity-access/access-gate/ports"
)

// Module is the access-gate composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Records     ports.RecordStore
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// NewModule wires status queries and record administration commands.
func NewModule(deps Dependencies) Module {
	adminStatus := queries.AdminStatusUseCase{
		Records: deps.Records,
		Clock:   deps.Clock,
		Logger:  deps.Logger,
	}
	dealerStatus := queries.DealerStatusUseCase{
		Records: deps.Records,
		Clock:   deps.Clock,
		Logger:  deps.Logger,
	}
	createApplication := commands.CreateDealerApplicationUseCase{
		Records:     deps.Records,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	setStatus := commands.SetDealerStatusUseCase{
		Records: deps.Records,
		Clock:   deps.Clock,
		Logger:  deps.Logger,
	}

	handler := httpadapter.Handler{
		AdminStatus:             adminStatus,
		DealerStatus:            dealerStatus,
		CreateDealerApplication: createApplication,
		SetDealerStatus:         setStatus,
		Logger:                  deps.Logger,
	}

	return Module{
		Handler: handler,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Records:     store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
