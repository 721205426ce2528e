package monthlock

import "go.uber.org/fx"

var Module = fx.Module("monthlock",
	fx.Provide(NewLocker),
)
