// Command kp2vcard is an interactive shell over an encrypted contact store
// with vCard 4.0 export.
//
//	kp2vcard init -s contacts.db      create a new store
//	kp2vcard -s contacts.db           open it in the shell
//	kp2vcard convert contacts.vcf     export without the shell
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
