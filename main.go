// SPDX-License-Identifier: MPL-2.0

package main

import cmd "docstage/cmd/docstage"

func main() {
	cmd.Execute()
}
