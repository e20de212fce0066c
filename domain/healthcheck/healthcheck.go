package healthcheck

import (
	"github.com/namebid/goapi/base/ctx"
)

const StatusOk = "ok"

// Report lists the state of each dependency the api needs to serve traffic.
type Report struct {
	Mongo string `json:"mongo"`
	Redis string `json:"redis"`
}

func (r *Report) Healthy() bool {
	return r.Mongo == StatusOk && r.Redis == StatusOk
}

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	Check(context ctx.Ctx) *Report
}

// HealthCheckRepo is repository layer of healthCheck
type HealthCheckRepo interface {
	PingMongo(context ctx.Ctx) error
	PingRedis(context ctx.Ctx) error
}
