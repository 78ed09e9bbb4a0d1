// Package commands implements the jsonupdate command line tool.
//
// Every write command is one load-update-persist cycle on a single file:
//
//	jsonupdate set config.json server.port=8080 debug=true
//	jsonupdate unset config.json server.legacy
//	jsonupdate merge config.json patch.json
//	echo '{"a":1}' | jsonupdate merge --create config.json -
//
// A missing or unreadable file is an error unless --default or --create
// supplies the starting document.
package commands
