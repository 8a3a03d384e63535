// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "Listr")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/listr.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)

	viper.SetDefault("database.path", "data/listr.db")

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.log.enabled", true)
	viper.SetDefault("webserver.log.path", "logs/web.log")
	viper.SetDefault("webserver.log.rotation", RotationDaily)
	viper.SetDefault("webserver.log.maxsize", 1048576)

	viper.SetDefault("optimizer.defaultk", 5)
	viper.SetDefault("optimizer.maxk", 25)

	viper.SetDefault("ingest.debug", false)
	viper.SetDefault("ingest.minyearsobserved", 2)
	viper.SetDefault("ingest.batchsize", 1000)
}
