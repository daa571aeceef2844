package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"strings"
)

func TestDebugEnvT4(t *testing.T) {
	root := t.TempDir()
	os.MkdirAll(filepath.Join(root, ".context"), 0o755)
	yaml := "server:\n  port: 9999\n"
	os.WriteFile(filepath.Join(root, ".context", "config.yaml"), []byte(yaml), 0o644)
	t.Setenv("PROJECT_INDEX_PORT", "8080")
	t.Setenv("PROJECT_INDEX_HOST", "0.0.0.0")
	t.Setenv("PROJECT_INDEX_SERVER", "http://remote:9000")

	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(root, ".context"))
	v.SetEnvPrefix("PROJECT_INDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.BindEnv("server.host", "PROJECT_INDEX_HOST")
	v.BindEnv("server.port", "PROJECT_INDEX_PORT")
	v.BindEnv("server.trace", "PROJECT_INDEX_TRACE")
	v.BindEnv("server_url", "PROJECT_INDEX_SERVER")
	v.ReadInConfig()

	fmt.Printf("Get server.host = %v\n", v.Get("server.host"))
	fmt.Printf("Get server.port = %v\n", v.Get("server.port"))
	fmt.Printf("AllSettings = %+v\n", v.AllSettings())
	fmt.Printf("AllKeys = %+v\n", v.AllKeys())
}
