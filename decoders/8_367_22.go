package decoders

// USCG Area Notice, DAC 367 FI 22 version 1.
func init() {
	RegisterDecoder(8, 367, 22, decodeAreaNotice(AreaUSCG))
}
