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


package convertcmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sassoftware/keyconv/cmdline/shared"
)

var FromSEC1Cmd = &cobra.Command{
	Use:   "from-sec1 [file]",
	Short: "Convert an EC PRIVATE KEY (SEC1) to PKCS#8",
	Args:  cobra.MaximumNArgs(1),
	RunE:  fromSEC1Cmd,
}

var FromPKCS1Cmd = &cobra.Command{
	Use:   "from-pkcs1 [file]",
	Short: "Convert an RSA PRIVATE KEY (PKCS#1) to PKCS#8",
	Args:  cobra.MaximumNArgs(1),
	RunE:  fromPKCS1Cmd,
}

var ConvertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a private key to PKCS#8, detecting the input format from its PEM label",
	Args:  cobra.MaximumNArgs(1),
	RunE:  convertCmd,
}

var argOutput string

func init() {
	for _, cmd := range []*cobra.Command{FromSEC1Cmd, FromPKCS1Cmd, ConvertCmd} {
		shared.AddOutputFlag(cmd.Flags(), &argOutput)
		shared.RootCmd.AddCommand(cmd)
	}
}

func fromSEC1Cmd(cmd *cobra.Command, args []string) error {
	return run(args, "sec1", shared.Converter().FromSEC1PEM)
}

func fromPKCS1Cmd(cmd *cobra.Command, args []string) error {
	return run(args, "pkcs1", shared.Converter().FromPKCS1PEM)
}

func convertCmd(cmd *cobra.Command, args []string) error {
	return run(args, "auto", shared.Converter().Convert)
}

func run(args []string, format string, conv func(string) (string, error)) error {
	path, blob, err := shared.ReadInput(args)
	if err != nil {
		return err
	}
	out, err := conv(string(blob))
	if err != nil {
		log.Debug().Err(err).Str("input", path).Str("format", format).Msg("conversion failed")
		return err
	}
	if err := shared.WriteOutput(argOutput, out); err != nil {
		return err
	}
	log.Info().Str("input", path).Str("output", argOutput).Str("format", format).Msg("converted private key")
	return nil
}
