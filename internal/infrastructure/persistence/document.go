package persistence

import (
	"sort"

	"github.com/samber/lo"

	"hostnet-agent/internal/domain/entities"
)

// runningDocument는 running configuration 파일의 직렬화 형식입니다
//
//	networks:
//	  ovirtmgmt: {nic: eth0, bridged: true, bootproto: dhcp}
//	bonds:
//	  bond0: {nics: [eth1, eth2], options: "mode=4 miimon=100"}
type runningDocument struct {
	Networks map[string]entities.NetworkAttributes `yaml:"networks" json:"networks"`
	Bonds    map[string]entities.BondAttributes    `yaml:"bonds" json:"bonds"`
}

func newRunningDocument(snapshot *entities.RunningSnapshot) runningDocument {
	return runningDocument{
		Networks: snapshot.Networks(),
		Bonds:    snapshot.Bonds(),
	}
}

func (d runningDocument) snapshot() *entities.RunningSnapshot {
	return entities.NewRunningSnapshot(d.Networks, d.Bonds)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
