package usecase

import (
	"github.com/namebid/goapi/base/ctx"
	hcdomain "github.com/namebid/goapi/domain/healthcheck"
)

type impl struct {
	repo hcdomain.HealthCheckRepo
}

// New creates new healthCheck usecase
func New(repo hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repo: repo,
	}
}

func (im *impl) Check(context ctx.Ctx) *hcdomain.Report {
	report := &hcdomain.Report{
		Mongo: hcdomain.StatusOk,
		Redis: hcdomain.StatusOk,
	}
	if err := im.repo.PingMongo(context); err != nil {
		report.Mongo = err.Error()
	}
	if err := im.repo.PingRedis(context); err != nil {
		report.Redis = err.Error()
	}
	return report
}
