// Package dirutil provides the directory-creation primitive shared by the
// registry codec and the lock file: both need a 0700 directory to exist
// before they can create a 0600 file inside it.
package dirutil
