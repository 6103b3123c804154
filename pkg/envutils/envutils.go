package envutils

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given files, `.env` by default.
// Variables already present in the environment win. Missing files are
// ignored.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, filename := range filenames {
		if err := godotenv.Load(filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func Env(variableName, defaultValue string) string {
	if variable := os.Getenv(variableName); variable != "" {
		log.Printf("[%s]: %s", variableName, variable)
		return variable
	}
	log.Printf("[%s_DEFAULT]: %s", variableName, defaultValue)
	return defaultValue
}

func EnvBool(variableName string, defaultValue bool) bool {
	value, err := strconv.ParseBool(Env(variableName, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}
