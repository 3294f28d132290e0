package domain

// Qualification levels shared by specialist profiles and project slots.
const (
	LevelJunior int16 = 1
	LevelMiddle int16 = 2
	LevelSenior int16 = 3
	LevelLead   int16 = 4
)

// ValidLevel reports whether the value is a known qualification level.
func ValidLevel(level int16) bool {
	return level >= LevelJunior && level <= LevelLead
}
