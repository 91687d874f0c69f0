// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

/*
Package websocket pushes event changes to connected dashboards.

A single Hub owns the set of connected clients. The change-feed forwarder
calls BroadcastChange for every store mutation and the hub fans the
notification out to every client:

	store mutation -> watermill "events.changed" -> forwarder -> Hub -> Clients

Each Client runs two goroutines: readPump answers application-level pings and
detects disconnects, writePump drains the send queue and keeps the connection
alive with protocol pings. A client whose queue is full is dropped rather than
allowed to stall the broadcast.

Messages are JSON:

	{"type":"event_change","data":{"id":"...","type":"updated","eventId":"...","event":{...},"at":"..."}}

The hub implements suture.Service and is run by the supervisor tree.
*/
package websocket
