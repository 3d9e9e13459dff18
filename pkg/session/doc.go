/*
Package session guards renderer runners against concurrent scripted clients.

A renderer accepts one endpoint per app and runner name, so two runs using the
same names would steal each other's windows. The Guard serializes such runs
inside the process with reference counted mutexes and, when a distributed
locker is configured, across processes and hosts.
*/
package session
