// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package version

import "fmt"

const (
	appMajor uint = 0
	appMinor uint = 2
	appPatch uint = 0
)

// GetVersion returns the application version as a properly formed string.
func GetVersion() string {
	return fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)
}
