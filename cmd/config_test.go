package cmd_test

import (
	"testing"
	"time"

	"fulfillment/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should fall back to defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		for _, key := range []string{"HTTP_PORT", "KAFKA_BROKERS", "DISPUTE_WINDOW", "BACKLOG_WARN_AFTER", "CLIENT_TIMEOUT"} {
			t.Setenv(key, "")
		}

		config, err := cmd.LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "8080", config.HTTPPort)
		assert.Empty(t, config.KafkaBrokers)
		assert.Equal(t, "order-events", config.KafkaOrderEventsTopic)
		assert.Equal(t, 336*time.Hour, config.DisputeWindow)
		assert.Equal(t, 72*time.Hour, config.BacklogWarnAfter)
	})

	t.Run("should read the environment", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
		t.Setenv("DISPUTE_WINDOW", "48h")
		t.Setenv("DB_HOST", "db")

		config, err := cmd.LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, config.KafkaBrokers)
		assert.Equal(t, 48*time.Hour, config.DisputeWindow)
		assert.Contains(t, config.DSN(), "host=db ")
	})

	t.Run("should reject malformed durations", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("DISPUTE_WINDOW", "two weeks")

		_, err := cmd.LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DISPUTE_WINDOW")
	})

	t.Run("should reject non positive durations", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("BACKLOG_WARN_AFTER", "-1h")

		_, err := cmd.LoadConfig()

		require.Error(t, err)
	})
}
