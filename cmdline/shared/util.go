/*
 * Copyright (c) SAS Institute Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package shared

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/sassoftware/keyconv/config"
	"github.com/sassoftware/keyconv/lib/atomicfile"
)

// InitConfig loads the file named by --config, or the default config if it
// exists
func InitConfig() error {
	if CurrentConfig != nil {
		return nil
	}
	usedDefault := false
	if ArgConfig == "" {
		ArgConfig = config.DefaultConfig()
		usedDefault = true
	}
	if ArgConfig == "" {
		CurrentConfig = new(config.Config)
		return nil
	}
	cfg, err := config.ReadFile(ArgConfig)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && usedDefault {
			CurrentConfig = new(config.Config)
			return nil
		}
		return err
	}
	CurrentConfig = cfg
	return nil
}

func OpenFile(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

// ReadInput reads the file named by the first argument, or stdin if there is
// none or it is "-"
func ReadInput(args []string) (string, []byte, error) {
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	if path == "-" && term.IsTerminal(int(os.Stdin.Fd())) {
		log.Info().Msg("reading key from terminal, end input with EOF")
	}
	f, err := OpenFile(path)
	if err != nil {
		return path, nil, err
	}
	defer f.Close()
	blob, err := io.ReadAll(f)
	if err != nil {
		return path, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return path, blob, nil
}

// AddOutputFlag registers the --output flag shared by commands that emit keys
func AddOutputFlag(fs *pflag.FlagSet, dest *string) {
	fs.StringVarP(dest, "output", "o", "-", "Write the result to this file instead of stdout")
}

// WriteOutput writes a private key to path, or stdout for "-"
func WriteOutput(path string, text string) error {
	f, err := atomicfile.WriteAny(path, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.WriteString(f, text); err != nil {
		return err
	}
	return f.Commit()
}
