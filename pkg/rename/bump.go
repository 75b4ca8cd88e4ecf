// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rename

import (
	"math/big"
	"strings"
)

// 🔢 BumpName adds delta to the rightmost run of digits in name. A '-'
// directly before the digits is their sign. The result keeps at least the
// original number of digits, padding with zeros, and may grow wider.
// Names without digits are returned unchanged.
func BumpName(name string, delta int) string {
	end := strings.LastIndexFunc(name, isDigit) + 1
	if end == 0 {
		return name
	}
	start := end - 1
	for start > 0 && isDigit(rune(name[start-1])) {
		start--
	}
	width := end - start

	n, _ := new(big.Int).SetString(name[start:end], 10)
	if start > 0 && name[start-1] == '-' {
		start--
		n.Neg(n)
	}
	n.Add(n, big.NewInt(int64(delta)))

	digits := new(big.Int).Abs(n).String()
	if pad := width - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	if n.Sign() < 0 {
		digits = "-" + digits
	}
	return name[:start] + digits + name[end:]
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
