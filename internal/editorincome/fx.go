package editorincome

import (
	"github.com/kongfuworld/settlement/internal/editorincome/service"
	"go.uber.org/fx"
)

var Module = fx.Module("editorincome.service",
	fx.Provide(service.NewService),
)
