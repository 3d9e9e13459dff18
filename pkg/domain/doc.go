/*
Package domain contains the core models of the renderer client.

It describes what a sample asks for and what travels on the wire, without any
I/O. Transports, loaders and the session runtime all speak in these types.

# Key Entities

  - Script: a loaded sample (window count, initial operations, named operations, event subscriptions).
  - Operation: one scripted instruction issued against the renderer.
  - Subscription: a declarative match rule for unsolicited renderer events.
  - Message: a request, response or event exchanged with the renderer.
  - Window: a window slot tracking handles and the progress of a document transfer.
  - Continuation: the tagged context attached to an outstanding request.
*/
package domain
