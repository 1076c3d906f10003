// Package damage computes the damage a punch deals to an opponent.
//
// The result is the product of three terms:
//
//   - base damage, a weighted sum of punch speed and strength where the
//     weights flip depending on whether the opponent is guarding
//   - a distance multiplier stepped on the Euclidean distance between
//     the two combatants
//   - an effectiveness multiplier that penalizes extreme or combined
//     speed and strength values
//
// Invalid input yields InvalidInput (-999) from CalculateDamage, or an
// error wrapping ErrInvalidInput from Calculate.
package damage
