package courses

import (
	"math"
	"sort"
)

const (
	defaultFirstHour = 8
	defaultLastHour  = 20
	singleSlotHour   = 9

	// Por encima de esto asumimos régimen por intervalos ("каждые N часов")
	// y repartimos las tomas por paso horario en vez de la ventana 8-20.
	intervalThreshold = 6
)

func maxTimesPerDay(meds []MedicationItem) int {
	max := 1
	for _, m := range meds {
		if m.TimesPerDay > max {
			max = m.TimesPerDay
		}
	}
	return max
}

func isIntervalBased(meds []MedicationItem) bool {
	for _, m := range meds {
		if m.TimesPerDay > intervalThreshold {
			return true
		}
	}
	return false
}

// defaultSlotTimes calcula las horas por defecto de cada slot.
// Régimen normal: una toma a las 9:00; varias entre 8:00 y 20:00
// repartidas uniformemente. Régimen por intervalos: desde las 8:00 con paso
// 24/slots horas, envolviendo la medianoche si hace falta.
func defaultSlotTimes(meds []MedicationItem) []DoseSlot {
	total := maxTimesPerDay(meds)

	if isIntervalBased(meds) {
		step := 24 / total
		if step < 1 {
			step = 1
		}
		slots := make([]DoseSlot, 0, total)
		for i := 0; i < total; i++ {
			slots = append(slots, DoseSlot{
				IndexInDay: i + 1,
				Hour:       (defaultFirstHour + i*step) % 24,
			})
		}
		return slots
	}

	if total == 1 {
		return []DoseSlot{{IndexInDay: 1, Hour: singleSlotHour}}
	}

	step := float64(defaultLastHour-defaultFirstHour) / float64(total-1)
	slots := make([]DoseSlot, 0, total)
	for i := 1; i <= total; i++ {
		hour := int(math.Round(defaultFirstHour + float64(i-1)*step))
		slots = append(slots, DoseSlot{IndexInDay: i, Hour: hour})
	}
	return slots
}

// assignSlots reparte las tomas de cada medicamento entre los slots:
// tantas o más tomas que slots => todos; una toma => slot del medio;
// dos => primero y último; resto => reparto uniforme por índice.
func assignSlots(meds []MedicationItem, totalSlots int) []CourseMedication {
	if totalSlots < 1 {
		return nil
	}

	out := make([]CourseMedication, 0, len(meds))
	for _, m := range meds {
		times := m.TimesPerDay
		if times < 1 {
			times = 1
		}

		var target []int
		switch {
		case times >= totalSlots:
			for i := 1; i <= totalSlots; i++ {
				target = append(target, i)
			}
		case times == 1:
			middle := 1 + int(math.Round(float64(totalSlots-1)/2))
			target = []int{middle}
		case times == 2:
			target = []int{1, totalSlots}
		default:
			seen := make(map[int]bool)
			for i := 0; i < times; i++ {
				pos := int(math.Round(float64(i) * float64(totalSlots-1) / float64(times-1)))
				if pos < 0 {
					pos = 0
				}
				if pos > totalSlots-1 {
					pos = totalSlots - 1
				}
				idx := 1 + pos
				if !seen[idx] {
					seen[idx] = true
					target = append(target, idx)
				}
			}
			sort.Ints(target)
		}

		out = append(out, CourseMedication{MedicationID: m.ID, SlotIndexes: target})
	}
	return out
}

// normalizeSchedule restablece los invariantes del agregado tras cualquier
// escritura: descarta referencias a slots inexistentes, poda entradas sin
// slots, elimina slots sin medicamentos y renumera el resto 1..N denso.
// También recalcula la duración total.
func normalizeSchedule(c *Course) {
	valid := make(map[int]bool, len(c.DoseSlots))
	for _, s := range c.DoseSlots {
		valid[s.IndexInDay] = true
	}

	used := make(map[int]bool)
	cms := c.CourseMedications[:0]
	for _, cm := range c.CourseMedications {
		var kept []int
		for _, idx := range cm.SlotIndexes {
			if valid[idx] {
				kept = append(kept, idx)
				used[idx] = true
			}
		}
		if len(kept) == 0 {
			continue
		}
		sort.Ints(kept)
		cm.SlotIndexes = kept
		cms = append(cms, cm)
	}
	c.CourseMedications = cms

	// slots usados, ordenados y renumerados contiguos desde 1
	var keptSlots []DoseSlot
	for _, s := range c.DoseSlots {
		if used[s.IndexInDay] {
			keptSlots = append(keptSlots, s)
		}
	}
	sort.Slice(keptSlots, func(i, j int) bool {
		return keptSlots[i].IndexInDay < keptSlots[j].IndexInDay
	})

	remap := make(map[int]int, len(keptSlots))
	for i := range keptSlots {
		remap[keptSlots[i].IndexInDay] = i + 1
		keptSlots[i].IndexInDay = i + 1
	}
	c.DoseSlots = keptSlots

	for i, cm := range c.CourseMedications {
		mapped := make([]int, 0, len(cm.SlotIndexes))
		for _, idx := range cm.SlotIndexes {
			if newIdx, ok := remap[idx]; ok {
				mapped = append(mapped, newIdx)
			}
		}
		sort.Ints(mapped)
		c.CourseMedications[i].SlotIndexes = mapped
	}

	maxDuration := 0
	for _, m := range c.Medications {
		if m.DurationInDays > maxDuration {
			maxDuration = m.DurationInDays
		}
	}
	c.TotalDurationInDays = maxDuration
}
