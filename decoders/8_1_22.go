package decoders

// IMO Circ. 289 Area Notice (broadcast).
func init() {
	RegisterDecoder(8, 1, 22, decodeAreaNotice(AreaIMO))
}
