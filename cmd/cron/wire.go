//go:build wireinject
// +build wireinject

package main

import (
	"quota-service/internal/biz"
	"quota-service/internal/conf"
	"quota-service/internal/data"
	"quota-service/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp 初始化应用
func wireApp(*conf.Bootstrap, log.Logger) (*CronApp, func(), error) {
	panic(wire.Build(
		data.ProviderSet,
		biz.ProviderSet,
		service.ProviderSet,
		newCronApp,
	))
}
