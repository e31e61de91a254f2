package bootstrap

import (
	"context"

	"anoa.com/fatetable/internal/entity"
	"gorm.io/gorm"
)

// kidouCost is the P.A. price of a spell by tier.
var kidouCost = map[int]int{1: 4000, 2: 8000, 3: 11000, 4: 15000, 5: 20000}

func spellNumber(n int) *int { return &n }

func kidou(name string, number *int, kind entity.KidouType, tier int, effect string) entity.KidouSpell {
	return entity.KidouSpell{
		Name:      name,
		Number:    number,
		SpellType: kind,
		Tier:      tier,
		PACost:    kidouCost[tier],
		Effect:    effect,
	}
}

// DefaultKidou is the Kidou catalog offered in bleach campaigns.
var DefaultKidou = []entity.KidouSpell{
	kidou("Shou (Verdade)", spellNumber(1), entity.KidouHadou, 1, "Empurra o oponente para longe sem causar muitos danos."),
	kidou("Byakurai (Trovão branco)", spellNumber(4), entity.KidouHadou, 1, "Atira um trovão do dedo indicador."),
	kidou("Shoutenkyu (Tempo verdadeiro aberto)", spellNumber(20), entity.KidouHadou, 1, "Uma esfera de reiatsu condensado explode no oponente e o paralisa."),
	kidou("Shakkahou (Canhão de fogo vermelho)", spellNumber(31), entity.KidouHadou, 2, "Joga uma bola espiritual vermelha no oponente."),
	kidou("Soukatsui (Bola de fogo azul)", spellNumber(33), entity.KidouHadou, 2, "Joga uma bola de energia espiritual azul no oponente."),
	kidou("Haien (Fogo da perda)", spellNumber(54), entity.KidouHadou, 3, "Uma pequena esfera de fogo que é capaz de queimar qualquer coisa."),
	kidou("Raikouhou (Canhão do rugido do trovão)", spellNumber(63), entity.KidouHadou, 3, "Uma grande onda de energia viaja em frente para aniquilar o alvo."),
	kidou("Souren Soukatsui (Bola de fogo azul gêmea)", spellNumber(73), entity.KidouHadou, 4, "Duas bolas de energia azul atingem o oponente."),
	kidou("Kurohitsugi (Sarcófago negro)", spellNumber(90), entity.KidouHadou, 5, "Um caixão de energia escura envolve e esmaga o alvo."),
	kidou("Sai (Obstruçao)", spellNumber(1), entity.KidouBakudou, 1, "Prende os braços do oponente atrás das costas."),
	kidou("Hainawa (Corda rastejante)", spellNumber(4), entity.KidouBakudou, 1, "Uma corda de energia amarra o oponente."),
	kidou("Tsuriboshi (Estrela suspensa)", spellNumber(37), entity.KidouBakudou, 2, "Uma rede elástica amortece a queda de quem cai."),
	kidou("Rikujyoukouro (Seis estradas da prisão de luz)", spellNumber(61), entity.KidouBakudou, 3, "Seis feixes de luz prendem o corpo do alvo."),
	kidou("Danku", spellNumber(81), entity.KidouBakudou, 4, "Uma parede transparente bloqueia ataques até o hadou 89."),
	kidou("Kin (Selo)", spellNumber(99), entity.KidouBakudou, 5, "Prende os braços do alvo ao chão com cintas e estacas."),
	kidou("Jikanteishi (Suspensão Temporal)", nil, entity.KidouForbidden, 0, "Para o tempo ao redor do usuário."),
	kidou("Kuukanten'i (Deslocamento Espacial)", nil, entity.KidouForbidden, 0, "Desloca o espaço para mover pessoas ou objetos."),
}

// SeedKidou inserts the catalog spells that are not there yet.
func SeedKidou(ctx context.Context, db *gorm.DB) error {
	for _, spell := range DefaultKidou {
		var count int64
		if err := db.WithContext(ctx).Model(&entity.KidouSpell{}).
			Where("name = ?", spell.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			sp := spell
			if err := db.WithContext(ctx).Create(&sp).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
