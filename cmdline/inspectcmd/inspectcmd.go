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


package inspectcmd

import (
	"crypto/x509"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sassoftware/keyconv/cmdline/shared"
	"github.com/sassoftware/keyconv/lib/pemcodec"
	"github.com/sassoftware/keyconv/lib/pkcs1"
	"github.com/sassoftware/keyconv/lib/pkcs8"
	"github.com/sassoftware/keyconv/lib/sec1"
	"github.com/sassoftware/keyconv/lib/x509tools"
)

var InspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Describe a PKCS#8 private key",
	Args:  cobra.MaximumNArgs(1),
	RunE:  inspectCmd,
}

func init() {
	shared.RootCmd.AddCommand(InspectCmd)
}

func inspectCmd(cmd *cobra.Command, args []string) error {
	_, blob, err := shared.ReadInput(args)
	if err != nil {
		return err
	}
	return Describe(os.Stdout, string(blob))
}

// Describe writes a summary of a PKCS#8 PEM private key to w
func Describe(w io.Writer, text string) error {
	block, err := pemcodec.DecodeLabel(text, pemcodec.LabelPrivateKey)
	if err != nil {
		return err
	}
	info, err := pkcs8.Parse(block.Body)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Version:   %d\n", info.Version)
	alg := info.PrivateKeyAlgorithm.Algorithm
	fmt.Fprintf(w, "Algorithm: %s (%s)\n", x509tools.AlgorithmName(alg), alg)
	key, err := info.Key()
	if err != nil {
		return err
	}
	switch k := key.(type) {
	case *pkcs1.RSAPrivateKey:
		fmt.Fprintf(w, "Modulus:   %d bits\n", k.N.BitLen())
		if len(k.OtherPrimes) > 0 {
			fmt.Fprintf(w, "Primes:    %d\n", len(k.OtherPrimes)+2)
		}
	case *sec1.ECPrivateKey:
		oid, err := info.NamedCurve()
		if err != nil {
			return err
		}
		name := oid.String()
		if curve, err := x509tools.CurveByOid(oid); err == nil {
			name = curve.Name
		}
		fmt.Fprintf(w, "Curve:     %s\n", name)
		fmt.Fprintf(w, "PublicKey: %t\n", k.PublicKey != nil)
	default:
		return x509.ErrUnsupportedAlgorithm
	}
	return nil
}
