package insts

var gprNames = [32]string{
	"zero", "ra", "r2", "sp", // 0 .. 3
	"a0", "a1", "a2", "a3", // 4 .. 7
	"a4", "a5", "a6", "a7", // 8 .. 11
	"t0", "t1", "t2", "t3", // 12 .. 15
	"t4", "t5", "t6", "at", // 16 .. 19
	"r20", "r21", "s9", "s0", // 20 .. 23
	"s1", "s2", "s3", "s4", // 24 .. 27
	"s5", "s6", "s7", "s8", // 28 .. 31
}

var fprNames = [32]string{
	"f0", "f1", "f2", "f3",
	"f4", "f5", "f6", "f7",
	"f8", "f9", "f10", "f11",
	"f12", "f13", "f14", "f15",
	"f16", "f17", "f18", "f19",
	"f20", "f21", "f22", "f23",
	"f24", "f25", "f26", "f27",
	"f28", "f29", "f30", "f31",
}

// GPRName returns the display name of general-purpose register idx.
// Only the low 5 bits of idx are used.
func GPRName(idx uint8) string {
	return gprNames[idx&0x1F]
}

// FPRName returns the display name of floating-point register idx.
// Only the low 5 bits of idx are used.
func FPRName(idx uint8) string {
	return fprNames[idx&0x1F]
}

// regName picks the register file according to isFPR.
func regName(idx uint8, isFPR bool) string {
	if isFPR {
		return FPRName(idx)
	}
	return GPRName(idx)
}
