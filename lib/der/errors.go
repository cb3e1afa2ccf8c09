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

package der

import "errors"

// Structural failures reported by the reader and by the key models built on
// top of it. Callers should test for them with errors.Is.
var (
	ErrTruncatedInput     = errors.New("der: truncated input")
	ErrNonMinimalLength   = errors.New("der: non-minimal length encoding")
	ErrExcessiveNesting   = errors.New("der: excessive nesting")
	ErrMalformedStructure = errors.New("der: malformed structure")
	ErrUnsupportedVersion = errors.New("der: unsupported version")
)
