// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/gsctools/gsc/cmd/gsc"

func main() {
	cmd.Execute()
}
