// Package cli implements the interactive SchedVault demo client.
//
// The client holds the encryption side of the trust split: it derives the
// oracle keys from a passphrase, seals start/end instants locally, and
// submits only ciphertexts and proofs to the server. The server can compare
// sealed values and verify decryption proofs but never needs the passphrase.
//
// Commands
//
//	login       derive oracle keys from a passphrase and issue a token
//	create      register a record from cleartext minutes-of-day
//	list        print all record ids
//	show        print one record's public view
//	reveal      prove the cleartext endpoints of a record
//	check       run a blind availability query against a record
//	handles     print a record's ciphertext handle references
//	exit        quit
package cli
