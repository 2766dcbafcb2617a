package sim

import (
	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/store"
	"github.com/pthm-cable/pond/systems"
	"github.com/pthm-cable/pond/telemetry"
)

// seekPartner pairs an eligible fish with the nearest eligible fish of its
// own species, if one is in sight.
func (w *World) seekPartner(f store.FishRef) {
	partner, ok := systems.NearestWithin(*f.Pos, w.store.AllFish(), f.Fish.DetectionRadius, store.FishRef.Position,
		func(o store.FishRef) bool { return o.ID != f.ID && systems.Compatible(f.Fish, o.Fish) })
	if !ok {
		return
	}

	systems.Pair(f.ID, f.Fish, *f.Pos, f.Body.Size, partner.ID, partner.Fish, *partner.Pos, partner.Body.Size, w.cfg.Reproduction)
	f.Fish.Target = systems.Contain(f.Fish.Target, w.bounds)
	partner.Fish.Target = systems.Contain(partner.Fish.Target, w.bounds)
	w.emit(telemetry.EventPaired, f.Fish.Species, f.ID, partner.ID, *f.Pos, 0)
	w.log.Debug("fish paired", "species", f.Fish.Species, "id", f.ID, "partner", partner.ID)
}

// courtPartner moves a paired fish toward its rendezvous point and lays a
// larva once the pair has been close for long enough. A missing partner or
// a courtship that drags on cancels the pairing.
func (w *World) courtPartner(f store.FishRef, sf float64) {
	rc := w.cfg.Reproduction
	partner, ok := w.store.Fish(f.Fish.PartnerID)
	if !ok || partner.Fish.PartnerID != f.ID {
		w.cancelPairing(f)
		return
	}

	// A partner near a wall can put the rendezvous outside the pond.
	f.Fish.Target = systems.Contain(systems.Rendezvous(*f.Pos, *partner.Pos, f.Body.Size, partner.Body.Size, rc), w.bounds)
	f.Fish.HasTarget = true
	*f.Pos = systems.MoveToward(*f.Pos, f.Fish.Target, f.Fish.Speed*sf*rc.MoveGain)
	f.Fish.ReproductionProgress += sf

	dist := systems.Distance(*f.Pos, *partner.Pos)
	if systems.CanSpawn(dist, f.Body.Size, partner.Body.Size, f.Fish.ReproductionProgress, rc) {
		w.spawnLarva(f, partner)
		return
	}
	if systems.Stuck(f.Fish.ReproductionProgress, rc) {
		w.cancelPairing(f)
	}
}

// spawnLarva finishes a successful pairing: both parents go idle on
// cooldown and one larva appears between them.
func (w *World) spawnLarva(f, partner store.FishRef) {
	species := f.Fish.Species
	at := systems.Midpoint(*f.Pos, *partner.Pos)
	maxHunger := w.cfg.Feeding.MaxHunger

	systems.FinishSpawn(f.Fish, w.cfg.Reproduction, maxHunger)
	systems.FinishSpawn(partner.Fish, w.cfg.Reproduction, maxHunger)

	larva := components.Larva{Species: species}
	id := w.store.InsertLarva(at, components.Body{Size: w.cfg.Larva.BaseSize}, larva)
	w.emit(telemetry.EventLarvaLaid, species, f.ID, partner.ID, at, 0)
	w.log.Debug("larva laid", "species", species, "id", id, "parents", []components.ID{f.ID, partner.ID})
}

// cancelPairing returns a paired fish and, if it still points back, its
// partner to idle with the cancel cooldown. Idle fish are left alone.
func (w *World) cancelPairing(f store.FishRef) {
	if !f.Fish.IsReproducing {
		return
	}
	partnerID := f.Fish.PartnerID
	systems.CancelPairing(f.Fish, w.cfg.Reproduction)
	if partner, ok := w.store.Fish(partnerID); ok && partner.Fish.PartnerID == f.ID {
		systems.CancelPairing(partner.Fish, w.cfg.Reproduction)
	}
	w.emit(telemetry.EventPairingCancelled, f.Fish.Species, f.ID, partnerID, *f.Pos, 0)
	w.log.Debug("pairing cancelled", "species", f.Fish.Species, "id", f.ID, "partner", partnerID)
}
