package conf

import (
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrap_ScanConfigFile(t *testing.T) {
	c := config.New(config.WithSource(file.NewSource("../../configs/config.yaml")))
	defer c.Close()
	require.NoError(t, c.Load())

	var bc Bootstrap
	require.NoError(t, c.Scan(&bc))

	assert.Equal(t, time.Second, bc.GetServer().GetHttp().GetTimeout().AsDuration())
	assert.Equal(t, 200*time.Millisecond, bc.GetData().GetRedis().GetReadTimeout().AsDuration())
	assert.Equal(t, "mysql", bc.GetData().GetDatabase().GetDriver())
	assert.Equal(t, []string{"127.0.0.1:9876"}, bc.GetData().GetRocketmq().GetNameServers())
	assert.Equal(t, int32(3), bc.GetData().GetRocketmq().GetRetryTimes())

	assert.Equal(t, 0.8, bc.GetQuota().GetAlertThreshold())
	assert.Equal(t, 5*time.Second, bc.GetQuota().GetLockExpiry().AsDuration())

	tracking := bc.GetCostTracking()
	assert.Equal(t, 2*time.Second, tracking.GetCostLookupTimeout().AsDuration())
	assert.Equal(t, 30*time.Second, tracking.GetBreaker().GetTimeout().AsDuration())
	require.Len(t, tracking.GetPrices(), 2)
	assert.Equal(t, "openstack.instance", tracking.GetPrices()[0].GetResourceType())
	assert.Equal(t, 0.02, tracking.GetPrices()[0].GetUnits()["cores"])

	assert.Equal(t, "0 30 3 * * *", bc.GetSweeper().GetCron())
	assert.True(t, bc.GetSweeper().GetAssumeYes())
}
