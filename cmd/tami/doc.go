// Command tami is the terminal front end: a folder tree, a favorites
// list, and one login shell per opened directory.
//
// Usage:
//
//	tami                         open a shell at the tree root
//	tami open <path>             shell for a directory, preview for a file
//	tami tree [path] --depth 2   print part of the folder tree
//	tami favorites               list favorites
//	tami favorites add <path>... add favorites
//	tami favorites rm <index>... remove favorites
//	tami favorites rename <index> <name>
//	tami favorites move <destination> <index>...
//	tami favorites open <index>  open a favorite
//	tami shell                   show the shell sessions will run
//	tami config                  print the effective configuration
//
// Environment variables and the config file are described in package
// config. Setting TAMI_STATUS_ADDR also starts the read-only status
// listener for as long as the command runs.
package main
