package ethereum

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// contractABIJSON is the subset of the observation ledger ABI the indexer reads
const contractABIJSON = `[
  {"anonymous":false,"name":"Observation","type":"event","inputs":[
    {"indexed":true,"name":"collection","type":"address"},
    {"indexed":true,"name":"tokenId","type":"uint256"},
    {"indexed":true,"name":"observer","type":"address"},
    {"indexed":false,"name":"id","type":"uint64"},
    {"indexed":false,"name":"parent","type":"uint64"},
    {"indexed":false,"name":"update","type":"bool"},
    {"indexed":false,"name":"note","type":"string"},
    {"indexed":false,"name":"located","type":"bool"},
    {"indexed":false,"name":"x","type":"int32"},
    {"indexed":false,"name":"y","type":"int32"},
    {"indexed":false,"name":"viewType","type":"uint8"},
    {"indexed":false,"name":"time","type":"uint32"},
    {"indexed":false,"name":"tip","type":"uint256"},
    {"indexed":false,"name":"tipRecipient","type":"address"}]},
  {"anonymous":false,"name":"TipsClaimed","type":"event","inputs":[
    {"indexed":true,"name":"recipient","type":"address"},
    {"indexed":true,"name":"claimant","type":"address"},
    {"indexed":false,"name":"amount","type":"uint256"}]},
  {"name":"artifacts","type":"function","stateMutability":"view",
    "inputs":[{"name":"collection","type":"address"},{"name":"tokenId","type":"uint256"}],
    "outputs":[{"name":"count","type":"uint64"},{"name":"firstBlock","type":"uint64"}]},
  {"name":"tips","type":"function","stateMutability":"view",
    "inputs":[{"name":"recipient","type":"address"}],
    "outputs":[{"name":"balance","type":"uint256"},{"name":"unclaimedSince","type":"uint64"}]}
]`

// ownerABIJSON is the Ownable owner() capability queried for delegated claims
const ownerABIJSON = `[{"name":"owner","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}]`

var (
	contractABI = mustParseABI(contractABIJSON)
	ownerABI    = mustParseABI(ownerABIJSON)

	// Observation(address,uint256,address,uint64,uint64,bool,string,bool,int32,int32,uint8,uint32,uint256,address)
	observationEventSignature = contractABI.Events["Observation"].ID

	// TipsClaimed(address,address,uint256)
	tipsClaimedEventSignature = contractABI.Events["TipsClaimed"].ID
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
