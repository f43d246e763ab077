package tanks

import "math/rand"

// Weapon identifies a weapon kind. Values go over the wire as ints, so
// the order is part of the protocol.
type Weapon int

const (
	WeaponStandard Weapon = iota
	WeaponBigShot
	WeaponSniper
	WeaponDirtMover
	WeaponBouncer
	WeaponThreeShot
	WeaponRoller
	WeaponNuke
)

// WeaponData is a weapon's static tuning.
type WeaponData struct {
	Type               Weapon
	Name               string
	BlastRadius        float64
	Damage             float64
	VelocityMultiplier float64
	MaxBounces         int
	Rolls              bool
	ProjectileCount    int
	SpreadAngle        float64
}

var weaponTable = map[Weapon]WeaponData{
	WeaponStandard:  {Type: WeaponStandard, Name: "STANDARD", BlastRadius: 30, Damage: 20, VelocityMultiplier: 1, ProjectileCount: 1},
	WeaponBigShot:   {Type: WeaponBigShot, Name: "BIG SHOT", BlastRadius: 50, Damage: 35, VelocityMultiplier: 1, ProjectileCount: 1},
	WeaponSniper:    {Type: WeaponSniper, Name: "SNIPER", BlastRadius: 15, Damage: 40, VelocityMultiplier: 1.8, ProjectileCount: 1},
	WeaponDirtMover: {Type: WeaponDirtMover, Name: "DIRT MOVER", BlastRadius: 90, Damage: 5, VelocityMultiplier: 1, ProjectileCount: 1},
	WeaponBouncer:   {Type: WeaponBouncer, Name: "BOUNCER", BlastRadius: 25, Damage: 15, VelocityMultiplier: 1, MaxBounces: 3, ProjectileCount: 1},
	WeaponThreeShot: {Type: WeaponThreeShot, Name: "3-SHOT", BlastRadius: 25, Damage: 15, VelocityMultiplier: 1, ProjectileCount: 3, SpreadAngle: 25},
	WeaponRoller:    {Type: WeaponRoller, Name: "ROLLER", BlastRadius: 20, Damage: 25, VelocityMultiplier: 1, Rolls: true, ProjectileCount: 1},
	WeaponNuke:      {Type: WeaponNuke, Name: "NUKE", BlastRadius: 90, Damage: 50, VelocityMultiplier: 1, ProjectileCount: 1},
}

// GetWeapon returns the tuning for a weapon kind.
func GetWeapon(w Weapon) WeaponData { return weaponTable[w] }

// ValidWeapon reports whether w names a known weapon.
func ValidWeapon(w Weapon) bool {
	_, ok := weaponTable[w]
	return ok
}

// RandomWeapons deals a loadout of count weapons: always one Standard,
// the rest drawn round-robin from the shuffled remainder of the
// arsenal, then shuffled as a whole.
func RandomWeapons(count int, rng *rand.Rand) []Weapon {
	pool := make([]Weapon, 0, len(weaponTable)-1)
	for w := range weaponTable {
		if w != WeaponStandard {
			pool = append(pool, w)
		}
	}

	result := []Weapon{WeaponStandard}
	for len(result) < count {
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		for _, w := range pool {
			if len(result) >= count {
				break
			}
			result = append(result, w)
		}
	}

	rng.Shuffle(len(result), func(i, j int) { result[i], result[j] = result[j], result[i] })
	return result
}
