// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>
// Copyright 2021 - 2022 Mendel Greenberg <mendel@chabad360.me>

//Package osc decodes, encodes and receives the subset of OpenSoundControl used to
//remote-control a live show.
//
//This implementation follows the Open Sound Control 1.0 Specification (http://opensoundcontrol.org/spec-1_0.html),
//restricted to single messages carried one per UDP datagram.
//
//Features
//
//- Supports OSC messages with the following TypeTags:
//
//	'i' (int32)
//	'f' (float32)
//	's' (string)
//
//- Any other type tag fails the whole message, since the width of its value cannot be known.
//
//- Bundles ("#bundle") are rejected.
//
//Messages
//
//An OSC message consists of a null-terminated address, padded to 4 bytes, a type tag string
//starting with ',' (also padded), and the packed arguments. Integers and floats are 4 bytes
//big-endian; strings are null-terminated and padded to the next 4 byte boundary.
//
//Usage
//
//OSC client example:
//  client, _ := osc.Dial("127.0.0.1:9000")
//  client.Send(osc.NewMessage("/sound/play", "intro music"))
//
//OSC server example:
//  server := &osc.Server{
//      Addr: "127.0.0.1:9000",
//      Handler: osc.HandlerFunc(func(msg *osc.Message) {
//          fmt.Println(msg)
//      }),
//      Logger: slog.Default(),
//  }
//  server.ListenAndServe(ctx)
package osc
