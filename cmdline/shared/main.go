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
	"github.com/spf13/cobra"

	"github.com/sassoftware/keyconv/config"
	"github.com/sassoftware/keyconv/internal/logging"
	"github.com/sassoftware/keyconv/lib/keyconv"
)

var (
	ArgConfig   string
	ArgLogLevel string
	argVersion  bool
)

var CurrentConfig *config.Config

var logCloser io.Closer

var RootCmd = &cobra.Command{
	Use:               "keyconv",
	Short:             "Convert SEC1 and PKCS#1 private keys to PKCS#8",
	PersistentPreRunE: setup,
	RunE:              bailUnlessVersion,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&ArgConfig, "config", "c", "", "Configuration file")
	RootCmd.PersistentFlags().StringVar(&ArgLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().BoolVar(&argVersion, "version", false, "Show version and exit")
}

func setup(cmd *cobra.Command, args []string) error {
	if argVersion {
		fmt.Printf("keyconv version %s\n", config.Version)
		os.Exit(0)
	}
	if err := InitConfig(); err != nil {
		return err
	}
	level := CurrentConfig.LogLevel
	if ArgLogLevel != "" {
		level = ArgLogLevel
	}
	closer, err := logging.Setup(level, CurrentConfig.LogFile)
	if err != nil {
		return err
	}
	if logCloser != nil {
		logCloser.Close()
	}
	logCloser = closer
	return nil
}

func bailUnlessVersion(cmd *cobra.Command, args []string) error {
	if !argVersion {
		return errors.New("expected a command")
	}
	return nil
}

// Converter returns a converter configured from the current config
func Converter() keyconv.Converter {
	if CurrentConfig == nil {
		return keyconv.Converter{}
	}
	return keyconv.Converter{KnownCurvesOnly: CurrentConfig.KnownCurvesOnly}
}

func Main() {
	err := RootCmd.Execute()
	if err != nil {
		log.Error().Err(err).Msg("keyconv failed")
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
