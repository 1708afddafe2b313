package server

import (
	"quota-service/internal/conf"

	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsPath 引擎指标的抓取路径
const MetricsPath = "/metrics"

// NewHTTPServer 创建 HTTP 服务器，只暴露引擎指标，不提供业务接口
func NewHTTPServer(c *conf.Bootstrap) *http.Server {
	opts := []http.ServerOption{
		http.Middleware(recovery.Recovery()),
	}
	hc := c.GetServer().GetHttp()
	if network := hc.GetNetwork(); network != "" {
		opts = append(opts, http.Network(network))
	}
	if addr := hc.GetAddr(); addr != "" {
		opts = append(opts, http.Address(addr))
	}
	if timeout := hc.GetTimeout().AsDuration(); timeout > 0 {
		opts = append(opts, http.Timeout(timeout))
	}

	srv := http.NewServer(opts...)
	srv.Handle(MetricsPath, promhttp.Handler())
	return srv
}
