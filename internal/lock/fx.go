package lock

import (
	"go.uber.org/fx"
)

// Module builds the Locker from the shared redis client provided by
// pkg/db. The Locker is nil when redis is not configured.
var Module = fx.Module("lock",
	fx.Provide(NewLocker),
)
