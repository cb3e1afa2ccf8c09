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

// Package pemcodec reads and writes a single PEM block. Decoding is stricter
// than encoding/pem: framing and base64 problems are reported instead of
// being skipped over.
package pemcodec

import (
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

const (
	LabelECPrivateKey  = "EC PRIVATE KEY"
	LabelRSAPrivateKey = "RSA PRIVATE KEY"
	LabelPrivateKey    = "PRIVATE KEY"
)

var (
	ErrFraming         = errors.New("pem: invalid framing")
	ErrBase64          = errors.New("pem: invalid base64 body")
	ErrUnexpectedLabel = errors.New("pem: unexpected label")
)

const (
	beginPrefix = "-----BEGIN "
	endPrefix   = "-----END "
	dashes      = "-----"
)

type Block struct {
	Label string
	Body  []byte
}

func parseMarker(line, prefix string) (string, bool) {
	if !strings.HasPrefix(line, prefix) || !strings.HasSuffix(line, dashes) {
		return "", false
	}
	if len(line) < len(prefix)+len(dashes) {
		return "", false
	}
	return line[len(prefix) : len(line)-len(dashes)], true
}

// Decode finds the one PEM block in text. Text before the BEGIN line and after
// the END line is ignored, but a second block is not.
func Decode(text string) (*Block, error) {
	lines := strings.Split(text, "\n")
	start := -1
	var label string
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, endPrefix) {
			return nil, fmt.Errorf("%w: END line without BEGIN", ErrFraming)
		}
		if strings.HasPrefix(line, beginPrefix) {
			var ok bool
			label, ok = parseMarker(line, beginPrefix)
			if !ok || label == "" {
				return nil, fmt.Errorf("%w: malformed BEGIN line", ErrFraming)
			}
			start = i
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("%w: no BEGIN line found", ErrFraming)
	}
	var body strings.Builder
	end := -1
	for i := start + 1; i < len(lines) && end < 0; i++ {
		line := strings.TrimSpace(lines[i])
		switch {
		case strings.HasPrefix(line, beginPrefix):
			return nil, fmt.Errorf("%w: nested BEGIN line inside %q block", ErrFraming, label)
		case strings.HasPrefix(line, endPrefix):
			endLabel, ok := parseMarker(line, endPrefix)
			if !ok {
				return nil, fmt.Errorf("%w: malformed END line", ErrFraming)
			}
			if endLabel != label {
				return nil, fmt.Errorf("%w: BEGIN %q does not match END %q", ErrFraming, label, endLabel)
			}
			end = i
		case strings.ContainsRune(line, ':'):
			return nil, fmt.Errorf("%w: unsupported header line in %q block", ErrFraming, label)
		default:
			body.WriteString(strings.Join(strings.Fields(line), ""))
		}
	}
	if end < 0 {
		return nil, fmt.Errorf("%w: missing END line for %q block", ErrFraming, label)
	}
	for _, line := range lines[end+1:] {
		if strings.Contains(line, beginPrefix) {
			return nil, fmt.Errorf("%w: more than one PEM block", ErrFraming)
		}
	}
	der, err := base64.StdEncoding.Strict().DecodeString(body.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBase64, err)
	}
	return &Block{Label: label, Body: der}, nil
}

// DecodeLabel decodes text and checks that its label is the expected one
func DecodeLabel(text, label string) (*Block, error) {
	block, err := Decode(text)
	if err != nil {
		return nil, err
	}
	if block.Label != label {
		return nil, fmt.Errorf("%w: expected %q, found %q", ErrUnexpectedLabel, label, block.Label)
	}
	return block, nil
}

// Encode emits a PEM block with a base64 body wrapped at 64 columns, LF line
// endings and a single trailing newline
func Encode(label string, der []byte) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: label, Bytes: der}))
}
