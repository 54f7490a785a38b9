package probe

const (
	// SNMPv2-MIB::sysDescr.0
	oidSysDescr = "1.3.6.1.2.1.1.1.0"
	// ENTITY-MIB::entPhysicalClass, 3 = chassis
	oidPhysicalClass = "1.3.6.1.2.1.47.1.1.1.1.5"
	// ENTITY-MIB::entPhysicalModelName
	oidPhysicalModel = "1.3.6.1.2.1.47.1.1.1.1.13"

	classChassis = 3
)
