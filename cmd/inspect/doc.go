/*
Package inspect implements the inspect command.

It decodes hex encoded OpenWire records offline, which helps when reading packet
captures or the debug logs of the transport:

	dwire inspect --wire-tight=false 1e000000070000000003
	dwire inspect --sample | dwire inspect
*/
package inspect
