package decoders

// Area Notice as sent during the early USCG trials, before the 87-bit
// sub-area of IMO Circ. 289 was settled.
func init() {
	RegisterDecoder(8, 366, 22, decodeAreaNotice(AreaUSCGLegacy))
}
