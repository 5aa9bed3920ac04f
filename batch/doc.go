// Package batch is the packet-writing encoder for hwstate.
//
// A Buffer is a bounded command buffer. Each state group the cache emits
// becomes one packet: a little-endian header dword carrying the opcode and
// the payload length in dwords, followed by the record bytes in host
// layout. Array state and the blend table do not travel inline; they are
// copied into a dynamic state Pool and the command stream carries a
// pointer packet with the pool offset, the way the hardware consumes them.
//
// Writes are all-or-nothing. When a packet does not fit, the buffer and
// the pool are left as they were and ErrOutOfSpace or ErrPoolExhausted is
// returned; hwstate.Cache.Flush hands that error back with the group still
// dirty.
//
//	pool := batch.NewPool(16 << 10)
//	buf := batch.New(64<<10, pool)
//	if err := cache.Flush(buf, hwstate.FlushOptions{}); err != nil {
//		// submit buf and retry on a fresh one
//	}
//	packets, err := batch.Decode(buf.Bytes())
package batch
