// Package msgs defines the messages exchanged between the soda daemon,
// its clients and the stripe reader.
//
// Every message travels in a Typed envelope whose type id tells the
// message and whether it is a command, a reply or an event.
package msgs
