package util

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jkvdb/jKV/lib/db"
	"github.com/jkvdb/jKV/lib/db/engines/birch"
	"github.com/jkvdb/jKV/lib/db/engines/hazel"
	"github.com/jkvdb/jKV/lib/store"
	"github.com/jkvdb/jKV/lib/store/jstore"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStoreFlags adds the common store flags to a command
func SetupStoreFlags(cmd *cobra.Command) {
	key := "backend"
	cmd.PersistentFlags().String(key, "birch", WrapString("Storage backend to use (hazel, birch)"))

	key = "filename"
	cmd.PersistentFlags().String(key, "", WrapString("Store identity. The birch backend uses it as its data file; the journal path defaults to this plus "+jstore.JournalSuffix))

	key = "journal-filename"
	cmd.PersistentFlags().String(key, "", WrapString("Journal file path. Defaults to the filename plus "+jstore.JournalSuffix))

	key = "no-create-dirs"
	cmd.PersistentFlags().Bool(key, false, WrapString("Do not create missing parent directories of the journal path"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("jkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetStoreConfig reads the store configuration from viper
func GetStoreConfig() jstore.Config {
	cfg := jstore.DefaultConfig()
	cfg.Filename = viper.GetString("filename")
	cfg.JournalFilename = viper.GetString("journal-filename")
	if viper.GetBool("no-create-dirs") {
		cfg.CreateDirectories = false
	}
	return cfg
}

// GetBackend reads the configured backend implementation tag
func GetBackend() (db.Implementation, error) {
	switch impl := db.Implementation(viper.GetString("backend")); impl {
	case db.ImplHazel, db.ImplBirch:
		return impl, nil
	default:
		return "", fmt.Errorf("invalid backend %q (want hazel or birch)", string(impl))
	}
}

// NewDBFactory creates a backend factory for the given implementation tag.
// Dispatch is an explicit switch over the typed tag; there is no runtime
// name-to-type registry.
func NewDBFactory(impl db.Implementation, cfg jstore.Config) (store.DBFactory, error) {
	switch impl {
	case db.ImplHazel:
		return func() (db.KVDB, error) {
			return hazel.NewHazelDB(), nil
		}, nil
	case db.ImplBirch:
		if cfg.Filename == "" {
			return nil, fmt.Errorf("the birch backend requires --filename")
		}
		return func() (db.KVDB, error) {
			return birch.NewBirchDB(cfg.Filename)
		}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", string(impl))
	}
}

// OpenStore creates the journaling store based on the current configuration
func OpenStore() (store.IStore, error) {
	cfg := GetStoreConfig()

	impl, err := GetBackend()
	if err != nil {
		return nil, err
	}

	factory, err := NewDBFactory(impl, cfg)
	if err != nil {
		return nil, err
	}

	return jstore.NewJournalingStore(factory, cfg)
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
