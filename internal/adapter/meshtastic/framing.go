package meshtastic

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Stream framing constants from the Meshtastic client API: every frame
// on the wire is START1 START2 followed by a big-endian 16-bit payload
// length and the ToRadio protobuf payload.
const (
	start1 = 0x94
	start2 = 0xc3

	// maxPayload is the largest ToRadio payload the firmware accepts.
	maxPayload = 512

	// broadcastAddr targets every node listening on the channel.
	broadcastAddr = 0xffffffff

	// portTextMessage is the TEXT_MESSAGE_APP port number.
	portTextMessage = 1
)

// Field numbers from the Meshtastic protobuf schema. Only the handful
// needed for an outbound broadcast text packet are encoded, so the
// payload is built directly with protowire rather than pulling in the
// full generated schema.
const (
	toRadioPacketField protowire.Number = 1 // ToRadio.packet

	packetToField      protowire.Number = 2 // MeshPacket.to
	packetChannelField protowire.Number = 3 // MeshPacket.channel
	packetDecodedField protowire.Number = 4 // MeshPacket.decoded
	packetIDField      protowire.Number = 6 // MeshPacket.id

	dataPortnumField protowire.Number = 1 // Data.portnum
	dataPayloadField protowire.Number = 2 // Data.payload
)

// encodeTextFrame builds a framed ToRadio message carrying a broadcast
// text packet for the given channel index. The packet ID deduplicates
// the message as it floods the mesh.
func encodeTextFrame(message string, channel int, packetID uint32) ([]byte, error) {
	data := protowire.AppendTag(nil, dataPortnumField, protowire.VarintType)
	data = protowire.AppendVarint(data, portTextMessage)
	data = protowire.AppendTag(data, dataPayloadField, protowire.BytesType)
	data = protowire.AppendBytes(data, []byte(message))

	packet := protowire.AppendTag(nil, packetToField, protowire.VarintType)
	packet = protowire.AppendVarint(packet, broadcastAddr)
	packet = protowire.AppendTag(packet, packetChannelField, protowire.VarintType)
	packet = protowire.AppendVarint(packet, uint64(channel))
	packet = protowire.AppendTag(packet, packetDecodedField, protowire.BytesType)
	packet = protowire.AppendBytes(packet, data)
	packet = protowire.AppendTag(packet, packetIDField, protowire.VarintType)
	packet = protowire.AppendVarint(packet, uint64(packetID))

	payload := protowire.AppendTag(nil, toRadioPacketField, protowire.BytesType)
	payload = protowire.AppendBytes(payload, packet)

	if len(payload) > maxPayload {
		return nil, fmt.Errorf("frame payload %d bytes exceeds device limit %d", len(payload), maxPayload)
	}

	frame := make([]byte, 0, len(payload)+4)
	frame = append(frame, start1, start2, byte(len(payload)>>8), byte(len(payload)))
	return append(frame, payload...), nil
}

// wakePreamble returns the byte train that brings the radio's serial
// API out of sleep before the first frame.
func wakePreamble() []byte {
	b := make([]byte, 32)
	for i := range b {
		b[i] = start2
	}
	return b
}
