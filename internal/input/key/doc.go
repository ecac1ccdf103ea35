// Package key models keyboard input events independently of the host
// windowing or terminal system.
//
// The navigation handler consumes these events; hosts construct them
// from whatever their platform reports. For terminal hosts a translator
// from tcell events is provided.
package key
