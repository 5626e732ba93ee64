package entity

import (
	"github.com/tsinghua-fib-lab/crossing-sim/clock"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

type ITaskContext interface {
	Clock() *clock.Clock
	Junction() IJunction
	VehicleManager() IVehicleManager
	RuntimeConfig() *config.RuntimeConfig
}
