package common

import (
	"hash/fnv"
	"os"

	"github.com/fundwit/go-commons/types"
	"github.com/sony/sonyflake"
)

var serviceInstance string

// IdWorker issues the ids used for derived identifiers, like quick-created
// client usernames.
var IdWorker = newIdWorker()

func newIdWorker() *sonyflake.Sonyflake {
	if worker := sonyflake.NewSonyflake(sonyflake.Settings{}); worker != nil {
		return worker
	}
	// hosts without a private IPv4 get a hostname-derived machine id
	worker := sonyflake.NewSonyflake(sonyflake.Settings{
		MachineID: func() (uint16, error) {
			hostname, err := os.Hostname()
			if err != nil {
				return 0, err
			}
			digest := fnv.New32a()
			digest.Write([]byte(hostname))
			return uint16(digest.Sum32()), nil
		},
	})
	if worker == nil {
		panic("id worker initialization failed")
	}
	return worker
}

func GetServiceName() string {
	if name := os.Getenv("SERVICE_NAME"); name != "" {
		return name
	}
	return "fieldops"
}

func GetServiceInstance() string {
	if serviceInstance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serviceInstance = hostname
	}
	return serviceInstance
}

func NextId(idWorker *sonyflake.Sonyflake) types.ID {
	id, err := idWorker.NextID()
	if err != nil {
		panic(err)
	}
	return types.ID(id)
}
