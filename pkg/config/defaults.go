package config

import (
	"time"

	"github.com/spf13/viper"

	"filevault/pkg/store/session"
)

// Default values. The defaults describe a complete single-node
// deployment: local MongoDB, badger sessions, filesystem blobs.
const (
	DefaultLogLevel = "INFO"

	DefaultHost            = "0.0.0.0"
	DefaultPort            = 5000
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultMongoURI      = "mongodb://localhost:27017"
	DefaultMongoDatabase = "filevault"

	DefaultSessionsPath = "/tmp/filevault/sessions"
	DefaultContentRoot  = "/tmp/filevault/content"
)

func applyDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", DefaultLogLevel)

	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.rate_burst", 0)

	v.SetDefault("metadata.type", "mongo")
	v.SetDefault("metadata.mongo.uri", DefaultMongoURI)
	v.SetDefault("metadata.mongo.database", DefaultMongoDatabase)

	v.SetDefault("sessions.type", "badger")
	v.SetDefault("sessions.ttl", session.DefaultTTL)
	v.SetDefault("sessions.badger.path", DefaultSessionsPath)

	v.SetDefault("blob.type", "filesystem")
	v.SetDefault("blob.filesystem.path", DefaultContentRoot)
}
