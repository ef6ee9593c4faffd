package config

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema"
)

const config_schema = `{
  "type": "object",
  "properties": {
    "device": {
      "type": "object",
      "properties": {
        "port": {"type": "string"},
        "baudrate": {"type": "integer", "minimum": 1},
        "half_duplex": {"type": "boolean"},
        "gpio_tx": {"type": "integer", "minimum": -1}
      }
    },
    "playback": {
      "type": "object",
      "properties": {
        "default_rate_hz": {"type": "number", "minimum": 0.001},
        "arm_delay_ms": {"type": "integer", "minimum": 0}
      }
    },
    "safety": {
      "type": "object",
      "properties": {
        "arm_channel": {"type": "integer", "minimum": 1, "maximum": 16},
        "arm_threshold": {"$ref": "#/definitions/channel"},
        "throttle_min": {"$ref": "#/definitions/channel"},
        "failsafe_timeout_ms": {"type": "integer", "minimum": 1},
        "arm_delay_ms": {"type": "integer", "minimum": 0},
        "disarm_frames": {"type": "integer", "minimum": 0}
      }
    },
    "scheduling": {
      "type": "object",
      "properties": {
        "realtime": {"type": "boolean"},
        "priority": {"type": "integer", "minimum": 1, "maximum": 99}
      }
    },
    "logging": {
      "type": "object",
      "properties": {
        "level": {"type": "string"},
        "file": {"type": "string"}
      }
    }
  },
  "definitions": {
    "channel": {"type": "integer", "minimum": 172, "maximum": 1811}
  }
}`

const schema_url = "http://elrsplay.local/schema/config.json"

var (
	schema     *jsonschema.Schema
	schemaErr  error
	schemaOnce sync.Once
)

func configSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if schemaErr = c.AddResource(schema_url, strings.NewReader(config_schema)); schemaErr != nil {
			return
		}
		schema, schemaErr = c.Compile(schema_url)
	})
	return schema, schemaErr
}
